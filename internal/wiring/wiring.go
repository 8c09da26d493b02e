// Package wiring registers all graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/stackmill/gopack/internal/adapters/cache"
	_ "github.com/stackmill/gopack/internal/adapters/cas"
	_ "github.com/stackmill/gopack/internal/adapters/config"
	_ "github.com/stackmill/gopack/internal/adapters/fs"
	_ "github.com/stackmill/gopack/internal/adapters/logger"
	_ "github.com/stackmill/gopack/internal/adapters/metrics"
	_ "github.com/stackmill/gopack/internal/adapters/shell"
	_ "github.com/stackmill/gopack/internal/adapters/toolchain"
	// Register app and engine nodes.
	_ "github.com/stackmill/gopack/internal/app"
	_ "github.com/stackmill/gopack/internal/engine/orchestrator"
)
