package utils

import "time"

// Server defaults
const (
	DefaultURL      = "http://localhost:8123"
	DefaultUsername = "default"
	DefaultPassword = ""
	QueryTimeout    = 60 * time.Second
)

// DistributedTablesQuery lists every Distributed table with its spool directory
const DistributedTablesQuery = "select arrayStringConcat(array(database,name),'.') as table,data_path from system.tables where engine='Distributed' FORMAT TabSeparated"

// EnvPrefix is the prefix for environment variable overrides
const EnvPrefix = "CHSPOOL_"

// KeyringService is the service name used for keyring entries
const KeyringService = "chspool"

// Schema version
const SchemaVersion = "1.0"
