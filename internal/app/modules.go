package app

import (
	"github.com/vk/medallion/internal/registry"
	"github.com/vk/medallion/modules/conform"
	"github.com/vk/medallion/modules/enrich_tickets"
	"github.com/vk/medallion/modules/gold_metrics"
	"github.com/vk/medallion/modules/print"
	"github.com/vk/medallion/modules/raw_loader"
)

// coreModules is the definitive list of all modules that are compiled into
// the medallion binary.
var coreModules = []registry.Module{
	&raw_loader.Module{},
	&conform.Module{},
	&enrich_tickets.Module{},
	&gold_metrics.Module{},
	&print.Module{},
}
