package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"subweave/internal/subtitle"
)

// Item is one text to translate, keyed by its position in the track.
type Item struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Translator turns one batch of items into their translations. The shared
// Translate runner handles batching and concurrency on top of it.
type Translator interface {
	TranslateBatch(ctx context.Context, items []Item) ([]Item, error)
}

// translation service backend
type Backend string

const (
	BackendGemini    Backend = "gemini"
	BackendOpenAI    Backend = "openai"
	BackendAnthropic Backend = "anthropic"
)

const DefaultBatchSize = 50

type Options struct {
	InputLanguage  string
	TargetLanguage string
	Model          string
	Prompt         string
	BatchSize      int // items per API request (default 50)
}

// New creates a translator for the given backend.
func New(
	ctx context.Context,
	backend Backend,
	apiKey string,
	opts Options,
) (Translator, error) {
	if opts.TargetLanguage == "" {
		return nil, fmt.Errorf("target language is required")
	}

	switch backend {
	case BackendGemini:
		return NewGeminiTranslator(ctx, apiKey, opts)
	case BackendOpenAI:
		return NewOpenAITranslator(ctx, apiKey, opts)
	case BackendAnthropic:
		return NewAnthropicTranslator(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported translation backend: %s", backend)
	}
}

// Translate splits items into batches of batchSize and feeds them to the
// translator with up to concurrency parallel requests. Results come back
// ordered by item index. The first failing batch cancels the rest.
func Translate(
	ctx context.Context,
	t Translator,
	items []Item,
	batchSize, concurrency int,
) ([]Item, error) {
	if len(items) == 0 {
		return []Item{}, nil
	}

	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if concurrency <= 0 {
		concurrency = 3
	}

	var batches [][]Item
	for i := 0; i < len(items); i += batchSize {
		end := i + batchSize
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[i:end])
	}

	if len(batches) == 1 {
		return t.TranslateBatch(ctx, batches[0])
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type batchResult struct {
		Index   int
		Results []Item
		Error   error
	}

	workChan := make(chan int)
	resultChan := make(chan batchResult, len(batches))

	var wg sync.WaitGroup
	for i := 0; i < concurrency && i < len(batches); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case batchIdx, ok := <-workChan:
					if !ok {
						return
					}
					if ctx.Err() != nil {
						return
					}

					results, err := t.TranslateBatch(ctx, batches[batchIdx])
					if err != nil {
						cancel()
					}
					resultChan <- batchResult{
						Index:   batchIdx,
						Results: results,
						Error:   err,
					}
				}
			}
		}()
	}

	go func() {
		defer close(workChan)
		for i := range batches {
			select {
			case <-ctx.Done():
				return
			case workChan <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var (
		allResults []Item
		firstErr   error
	)
	for result := range resultChan {
		if result.Error != nil && firstErr == nil {
			firstErr = fmt.Errorf(
				"batch %d failed: %w",
				result.Index,
				result.Error,
			)
			cancel()
		}
		if result.Error == nil {
			allResults = append(allResults, result.Results...)
		}
	}

	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(allResults, func(i, j int) bool {
		return allResults[i].Index < allResults[j].Index
	})

	return allResults, nil
}

// Entries translates a track's entries, keeping each entry's timing and
// replacing its text. Entries whose translation came back empty keep the
// original text.
func Entries(
	ctx context.Context,
	t Translator,
	entries []subtitle.Entry,
	batchSize, concurrency int,
) ([]subtitle.Entry, error) {
	items := make([]Item, len(entries))
	for i, entry := range entries {
		items[i] = Item{Index: i, Text: entry.Text}
	}

	results, err := Translate(ctx, t, items, batchSize, concurrency)
	if err != nil {
		return nil, err
	}

	translated := make([]subtitle.Entry, len(entries))
	copy(translated, entries)
	for _, result := range results {
		if result.Index < 0 || result.Index >= len(translated) {
			continue
		}
		if result.Text == "" {
			continue
		}
		translated[result.Index].Text = result.Text
	}

	return translated, nil
}

// BuildPrompt creates the translation prompt for LLM backends.
func BuildPrompt(opts Options, items []Item) string {
	var sb strings.Builder

	if opts.InputLanguage != "" {
		sb.WriteString(fmt.Sprintf(
			"Translate the following %s subtitle texts to %s.\n\n",
			opts.InputLanguage,
			opts.TargetLanguage,
		))
	} else {
		sb.WriteString(fmt.Sprintf(
			"Translate the following subtitle texts to %s.\n\n",
			opts.TargetLanguage,
		))
	}

	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString(
		"1. Translate ONLY the text content, preserving the meaning.\n",
	)
	sb.WriteString(
		"2. Keep any formatting tags (like {\\pos}, {\\an}, etc.) unchanged.\n",
	)
	sb.WriteString("3. Preserve line breaks (\\N) in the same positions.\n")
	sb.WriteString("4. Return ONLY a JSON array with the same structure.\n")
	sb.WriteString("5. Each object must have 'index' and 'text' fields.\n")
	sb.WriteString(
		"6. The 'index' values must match the input indices exactly.\n",
	)
	sb.WriteString("7. Do not add any explanation or markdown formatting.\n\n")

	if opts.Prompt != "" {
		sb.WriteString(
			fmt.Sprintf("Additional instructions: %s\n\n", opts.Prompt),
		)
	}

	sb.WriteString("Input JSON:\n")

	inputJSON, _ := json.MarshalIndent(items, "", "  ")
	sb.Write(inputJSON)

	sb.WriteString("\n\nOutput the translated JSON array only:")

	return sb.String()
}
