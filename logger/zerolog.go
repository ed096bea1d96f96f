/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package logger

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// zerologLogger adapts a zerolog.Logger to Logger
type zerologLogger struct {
	zl    zerolog.Logger
	level atomic.Int32
}

// NewZerologLogger wraps zl. Messages are emitted through zl with the
// "component" field set to "maxintersect"; SetLevel filters on top of zl's
// own level.
//
// Example:
//
//	zl := zerolog.New(os.Stderr).With().Timestamp().Logger()
//	logger.SetDefault(logger.NewZerologLogger(zl, logger.INFO))
func NewZerologLogger(zl zerolog.Logger, level Level) Logger {
	l := &zerologLogger{zl: zl.With().Str("component", "maxintersect").Logger()}
	l.level.Store(int32(level))
	return l
}

func (l *zerologLogger) Debug(format string, args ...interface{}) {
	l.emit(DEBUG, format, args...)
}

func (l *zerologLogger) Info(format string, args ...interface{}) {
	l.emit(INFO, format, args...)
}

func (l *zerologLogger) Warn(format string, args ...interface{}) {
	l.emit(WARN, format, args...)
}

func (l *zerologLogger) Error(format string, args ...interface{}) {
	l.emit(ERROR, format, args...)
}

func (l *zerologLogger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

func (l *zerologLogger) emit(level Level, format string, args ...interface{}) {
	current := Level(l.level.Load())
	if current == OFF || level < current {
		return
	}
	var ev *zerolog.Event
	switch level {
	case DEBUG:
		ev = l.zl.Debug()
	case INFO:
		ev = l.zl.Info()
	case WARN:
		ev = l.zl.Warn()
	default:
		ev = l.zl.Error()
	}
	ev.Msgf(format, args...)
}
