// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package matchidx

import "github.com/rs/zerolog"

// ZerologLogger adapts a zerolog.Logger to the Logger interface. It is
// used only when a caller injects it with WithLogger; a map built without
// WithLogger logs nothing.
type ZerologLogger struct {
	Base zerolog.Logger
}

// NewZerologLogger wraps base as a Logger.
func NewZerologLogger(base zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{Base: base}
}

func (l *ZerologLogger) Debugf(scope, format string, args ...any) {
	l.Base.Debug().Str("scope", scope).Msgf(format, args...)
}

func (l *ZerologLogger) Infof(scope, format string, args ...any) {
	l.Base.Info().Str("scope", scope).Msgf(format, args...)
}

func (l *ZerologLogger) Errf(scope, format string, args ...any) {
	l.Base.Error().Str("scope", scope).Msgf(format, args...)
}
