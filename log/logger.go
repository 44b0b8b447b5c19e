// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is a thin layer over go-ethereum's structured logger.
// Package level loggers are created with WithContext and resolve the root
// logger on every call, so a handler installed by SetDefault at start-up
// applies to loggers declared as package variables.
package log

import (
	ethlog "github.com/ethereum/go-ethereum/log"
)

// Logger writes key/value pairs to a handler.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)
	// New returns a logger which appends ctx to every record.
	New(ctx ...any) Logger
}

type logger struct {
	ctx []any
}

// WithContext returns a logger bound to the given context key/value pairs.
func WithContext(ctx ...any) Logger {
	return &logger{ctx: ctx}
}

// Root returns the root logger.
func Root() Logger {
	return &logger{}
}

// SetDefault installs l as the root logger for the whole process,
// including the go-ethereum libraries.
func SetDefault(l ethlog.Logger) {
	ethlog.SetDefault(l)
}

func (l *logger) root() ethlog.Logger {
	if len(l.ctx) == 0 {
		return ethlog.Root()
	}
	return ethlog.Root().With(l.ctx...)
}

func (l *logger) Trace(msg string, ctx ...any) { l.root().Trace(msg, ctx...) }
func (l *logger) Debug(msg string, ctx ...any) { l.root().Debug(msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.root().Info(msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.root().Warn(msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.root().Error(msg, ctx...) }
func (l *logger) Crit(msg string, ctx ...any)  { l.root().Crit(msg, ctx...) }

func (l *logger) New(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	return &logger{ctx: append(merged, ctx...)}
}
