// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Command cardio converts units, inspects and rescales EDF recordings and
// encodes class labels.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/OpenPSG/cardio/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)

	stop()
	_ = logger.Logger().Sync()

	if err != nil {
		os.Exit(1)
	}
}
