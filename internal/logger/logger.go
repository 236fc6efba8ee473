package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds a sugared zap logger. Development gets console encoding,
// anything else gets production JSON.
func New(env string) (*zap.SugaredLogger, error) {
	var (
		log *zap.Logger
		err error
	)
	if env == "development" {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log.Sugar(), nil
}
