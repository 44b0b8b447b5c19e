// Copyright 2017 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
)

// Handler formats.
const (
	FormatTerminal = "terminal"
	FormatJSON     = "json"
	FormatLogfmt   = "logfmt"
)

type discardHandler struct{}

// DiscardHandler returns a no-op handler
func DiscardHandler() slog.Handler {
	return &discardHandler{}
}

func (h *discardHandler) Handle(_ context.Context, _ slog.Record) error {
	return nil
}

func (h *discardHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return false
}

func (h *discardHandler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *discardHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return &discardHandler{}
}

// ParseLevel converts the legacy verbosity (0=crit ... 5=trace) into a slog level.
func ParseLevel(verbosity int) (slog.Level, error) {
	if verbosity < 0 || verbosity > 5 {
		return 0, fmt.Errorf("invalid verbosity %d, want 0-5", verbosity)
	}
	return ethlog.FromLegacyLevel(verbosity), nil
}

// NewHandler creates a handler writing records at or above level to wr.
// The terminal format is colored when wr is a terminal.
func NewHandler(wr io.Writer, format string, level slog.Level) (slog.Handler, error) {
	switch format {
	case "", FormatTerminal:
		return ethlog.NewTerminalHandlerWithLevel(wr, level, useColor(wr)), nil
	case FormatJSON:
		return ethlog.JSONHandlerWithLevel(wr, level), nil
	case FormatLogfmt:
		return ethlog.LogfmtHandlerWithLevel(wr, level), nil
	}
	return nil, fmt.Errorf("unknown log format %q", format)
}

// Setup installs a root logger built by NewHandler.
func Setup(wr io.Writer, format string, verbosity int) error {
	level, err := ParseLevel(verbosity)
	if err != nil {
		return err
	}
	h, err := NewHandler(wr, format, level)
	if err != nil {
		return err
	}
	SetDefault(ethlog.NewLogger(h))
	return nil
}

func useColor(wr io.Writer) bool {
	f, ok := wr.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) && os.Getenv("TERM") != "dumb"
}
