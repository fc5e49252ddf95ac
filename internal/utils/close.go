package utils

import (
	"io"

	"github.com/DiasPedroQA/bookmark-converter/internal/logger"
)

// Close closes c and logs the error, if any.
func Close(log logger.Logger, c io.Closer, what string) {
	if err := c.Close(); err != nil {
		log.Warn("close failed",
			logger.String("what", what),
			logger.Error(err))
	}
}
