// mypylogger - Reliability-First JSON Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mypylogger

// Package main exercises mypylogger end to end. It is a demonstration
// binary, not part of the library surface.
//
// Configuration comes from the environment, for example:
//
//	APP_NAME=demo LOG_LEVEL=DEBUG LOG_TO_FILE=true ./logdemo
//
// Console output is one JSON object per line; with LOG_TO_FILE set, the
// same lines land in {APP_NAME}_{YYYYMMDD}_{HH}.log under LOG_FILE_DIR.
package main

import (
	"context"
	"os"

	"github.com/tomtom215/mypylogger"
)

func main() {
	log := mypylogger.GetLogger()

	log.Info("starting up", mypylogger.Fields{"pid": os.Getpid(), "name": log.Name()})
	log.Debug("debug detail, visible with LOG_LEVEL=DEBUG")

	ctx := mypylogger.ContextWithNewCorrelationID(context.Background())
	log.Ctx(ctx).Info("correlated work item", mypylogger.Fields{"step": 1})

	worker := log.With(mypylogger.Fields{"component": "worker"})
	worker.Warning("queue depth high", mypylogger.Fields{"depth": 128})
	worker.Error("job failed", mypylogger.Fields{"job_id": "a1b2c3", "attempt": 3})

	log.Critical("shutting down")
}
