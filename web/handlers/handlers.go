package handlers

import (
	"github.com/go-redis/redis/v8"

	"github.com/Jun0zo/SDS-Inventory-sub000/config"
	"github.com/Jun0zo/SDS-Inventory-sub000/engine"
)

// Shared handler state, wired once at startup.
var (
	Engine   *engine.Engine
	Notifier *engine.Notifier
	Cache    *redis.Client
	Cfg      *config.Config
)

// Init wires the reconciliation engine, the change notifier and the
// optional cache into the handler package. Cache may be nil; handlers
// then always compute fresh.
func Init(eng *engine.Engine, notifier *engine.Notifier, cache *redis.Client, cfg *config.Config) {
	Engine = eng
	Notifier = notifier
	Cache = cache
	Cfg = cfg
}
