// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package app

import (
	"context"
	"fmt"
	"io"

	"github.com/OpenPSG/cardio/internal/logger"
	"github.com/OpenPSG/cardio/units"
)

// Factor prints the factor converting oldUnits into newUnits.
func Factor(ctx context.Context, w io.Writer, reg *units.Registry, oldUnits, newUnits string) error {
	factor, err := reg.ConversionFactor(oldUnits, newUnits)
	if err != nil {
		return err
	}

	logger.DebugKV(ctx, "Computed conversion factor", "from", oldUnits, "to", newUnits, "factor", factor)

	_, err = fmt.Fprintf(w, "%g\n", factor)
	return err
}
