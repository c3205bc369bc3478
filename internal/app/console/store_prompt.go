package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yigit/coursedesk/internal/pkg/apperrors"
	"github.com/yigit/coursedesk/internal/pkg/export"
	"github.com/yigit/coursedesk/internal/pkg/logger"
)

// Prompt texts
const (
	storeQuestion        = "Would you like to store this result?"
	storeChoicePrompt    = "Y/[N]? : "
	filenamePrompt       = "Specify filename. Must end in .xml or .json: "
	invalidChoiceMsg     = "Invalid choice"
	invalidExtensionMsg  = "Invalid file extension. Please use .xml or .json"
	defaultStoreAttempts = 1
)

// Exporter writes a cursor to a named file
type Exporter interface {
	Export(ctx context.Context, c export.Cursor, filename string) (*export.Result, error)
}

// StorePrompt asks whether to persist a result set and where
type StorePrompt struct {
	in          LineReader
	out         io.Writer
	exporter    Exporter
	maxAttempts int
}

// NewStorePrompt creates a StorePrompt. maxAttempts bounds how often the
// yes/no question is asked after invalid answers; values below 1 mean 1.
func NewStorePrompt(in LineReader, out io.Writer, exporter Exporter, maxAttempts int) *StorePrompt {
	if maxAttempts < 1 {
		maxAttempts = defaultStoreAttempts
	}
	return &StorePrompt{in: in, out: out, exporter: exporter, maxAttempts: maxAttempts}
}

// Offer runs the store dialogue for c. It returns the export result when a
// file was written, nil when the user declined or gave invalid input. Only
// input errors (including io.EOF) are returned; export failures are reported
// on the console.
func (p *StorePrompt) Offer(ctx context.Context, c export.Cursor) (*export.Result, error) {
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		fmt.Fprintln(p.out, storeQuestion)
		answer, err := p.in.ReadLine(storeChoicePrompt)
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y":
			return p.store(ctx, c)
		case "n":
			return nil, nil
		default:
			fmt.Fprintln(p.out, invalidChoiceMsg)
			err := fmt.Errorf("%w: %q", apperrors.ErrInvalidChoice, answer)
			logger.Debug().Err(err).Int("attempt", attempt+1).Int("maxAttempts", p.maxAttempts).Msg("Store prompt answer rejected")
		}
	}
	return nil, nil
}

func (p *StorePrompt) store(ctx context.Context, c export.Cursor) (*export.Result, error) {
	filename, err := p.in.ReadLine(filenamePrompt)
	if err != nil {
		return nil, err
	}
	filename = strings.TrimSpace(filename)

	result, err := p.exporter.Export(ctx, c, filename)
	switch {
	case errors.Is(err, apperrors.ErrInvalidExtension):
		fmt.Fprintln(p.out, invalidExtensionMsg)
		return nil, nil
	case err != nil:
		fmt.Fprintf(p.out, "Could not store the result: %v\n", err)
		return nil, nil
	}

	fmt.Fprintf(p.out, "Saved %d rows to %s\n", result.Rows, result.Location)
	return result, nil
}
