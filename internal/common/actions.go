package common

// LogAction wraps a unit of work with start/success/failure logging and
// returns its error unchanged. The CLI layer uses it around every use case.
func LogAction(logger *Logger, action string, fn func() error) error {
	logger.Info().Str("action", action).Msg("START")
	if err := fn(); err != nil {
		logger.Error().Str("action", action).Err(err).Msg("ERROR")
		return err
	}
	logger.Info().Str("action", action).Msg("OK")
	return nil
}
