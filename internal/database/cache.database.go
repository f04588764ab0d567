package database

import (
	"fmt"
	"hosteldesk/config"

	"github.com/valkey-io/valkey-go"
)

// Valkey database index organization. Each index gives a logical separation
// between cache categories so a flush of one cannot clobber another.
const (
	// GENERAL_CACHE_INDEX (DB 0) - general purpose caching (room listings,
	// staff rosters and other small read-mostly payloads)
	GENERAL_CACHE_INDEX = iota

	// ANALYTICS_CACHE_INDEX (DB 1) - pre-shaped analytics aggregates with
	// short TTLs; the read-model is recomputed on expiry, never invalidated
	// row by row
	ANALYTICS_CACHE_INDEX

	// EVENTS_CACHE_INDEX (DB 2) - pub/sub for the event bus feeding the
	// admin websocket feed
	EVENTS_CACHE_INDEX
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.Errorf("failed to initialize cache database", "address or port is empty")
	}

	var cacheDB Cache

	var err error
	cacheDB.General, err = valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    GENERAL_CACHE_INDEX,
		},
	)
	if err != nil {
		return log.Err("failed to create general valkey client", err)
	}

	cacheDB.Analytics, err = valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    ANALYTICS_CACHE_INDEX,
		},
	)
	if err != nil {
		return log.Err("failed to create analytics valkey client", err)
	}

	cacheDB.Events, err = valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    EVENTS_CACHE_INDEX,
		},
	)
	if err != nil {
		return log.Err("failed to create events valkey client", err)
	}

	s.Cache = cacheDB

	return nil
}
