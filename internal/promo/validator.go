package promo

import (
	"context"
	"fmt"
	"sync"

	"chai-duka/internal/model"

	"github.com/rs/zerolog"
)

// validator implements Validator with concurrent promo file lookups.
type validator struct {
	codeSets []CodeSet
	minMatch int
	logger   zerolog.Logger
	// No mutex needed - code sets are read-only after initialization
}

// ValidatorConfig holds configuration for the promo validator.
type ValidatorConfig struct {
	// FilePaths is the list of promo file paths to load.
	FilePaths []string

	// MinMatchCount is the minimum number of files a code must appear in.
	// Default: 2
	MinMatchCount int
}

// DefaultValidatorConfig returns the default validator configuration.
func DefaultValidatorConfig() *ValidatorConfig {
	return &ValidatorConfig{
		FilePaths: []string{
			"data/promos/promobase1.gz",
			"data/promos/promobase2.gz",
			"data/promos/promobase3.gz",
		},
		MinMatchCount: 2,
	}
}

// NewValidator creates a new promo validator.
// It loads all promo files at initialization time, concurrently.
func NewValidator(ctx context.Context, config *ValidatorConfig, loader Loader, logger zerolog.Logger) (Validator, error) {
	if config == nil {
		config = DefaultValidatorConfig()
	}

	logger = logger.With().Str("component", "promo-validator").Logger()

	logger.Info().
		Int("file_count", len(config.FilePaths)).
		Int("min_match_count", config.MinMatchCount).
		Msg("initialising promo validator")

	v := &validator{
		codeSets: make([]CodeSet, 0, len(config.FilePaths)),
		minMatch: config.MinMatchCount,
		logger:   logger,
	}

	type loadResult struct {
		index int
		set   CodeSet
		err   error
	}

	resultChan := make(chan loadResult, len(config.FilePaths))
	var wg sync.WaitGroup

	for i, filePath := range config.FilePaths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			set, err := loader.Load(ctx, path)
			resultChan <- loadResult{
				index: index,
				set:   set,
				err:   err,
			}
		}(i, filePath)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(config.FilePaths))
	for result := range resultChan {
		results[result.index] = result
	}

	for i, result := range results {
		if result.err != nil {
			logger.Error().
				Err(result.err).
				Str("file", config.FilePaths[i]).
				Msg("failed to load promo file")
			return nil, fmt.Errorf("failed to load promo file %s: %w", config.FilePaths[i], result.err)
		}
		v.codeSets = append(v.codeSets, result.set)
	}

	totalCodes := 0
	for _, set := range v.codeSets {
		totalCodes += set.Size()
	}

	logger.Info().
		Int("total_codes", totalCodes).
		Msg("promo validator initialised")

	return v, nil
}

// Validate checks if a promo code is valid.
// A valid promo code must be between 8 and 10 characters and appear in at
// least minMatch of the loaded promo files.
func (v *validator) Validate(ctx context.Context, code string) error {
	// Length check first (cheap)
	if len(code) < 8 || len(code) > 10 {
		v.logger.Debug().
			Str("promo_code", code).
			Int("length", len(code)).
			Msg("promo code length invalid")
		return model.ErrInvalidPromoLength
	}

	matchCount := v.countMatches(ctx, code)

	if matchCount < v.minMatch {
		v.logger.Debug().
			Str("promo_code", code).
			Int("match_count", matchCount).
			Msg("promo code not found in sufficient files")
		return model.ErrInvalidPromoCode
	}

	return nil
}

// countMatches counts how many promo files contain the given code, checking
// each file in its own goroutine and terminating early once the required
// match count is reached or can no longer be reached.
func (v *validator) countMatches(ctx context.Context, code string) int {
	resultChan := make(chan bool, len(v.codeSets))
	doneChan := make(chan struct{})
	defer close(doneChan)

	for _, set := range v.codeSets {
		go func(s CodeSet) {
			select {
			case <-doneChan:
				return
			case <-ctx.Done():
				return
			default:
			}

			found := s.Contains(code)

			select {
			case resultChan <- found:
			case <-doneChan:
			case <-ctx.Done():
			}
		}(set)
	}

	matches := 0
	checked := 0

	for checked < len(v.codeSets) {
		select {
		case found := <-resultChan:
			checked++
			if found {
				matches++
				if matches >= v.minMatch {
					return matches
				}
			}
			remaining := len(v.codeSets) - checked
			if matches+remaining < v.minMatch {
				return matches
			}
		case <-ctx.Done():
			return matches
		}
	}

	return matches
}

// Close releases resources held by the validator.
func (v *validator) Close() error {
	v.codeSets = nil
	v.logger.Info().Msg("promo validator closed")
	return nil
}
