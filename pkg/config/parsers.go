package config

import "flag"

// Flags holds parsed command-line flag values and which were set.
type Flags struct {
	Addr   string
	DB     string
	Config string
	Set    map[string]bool
}

// ParseCommandFlags defines and parses command-line flags and returns their
// values along with a map indicating which flags were explicitly set.
// Explicitly set flags win over env and config file values.
func ParseCommandFlags() Flags {
	addrPtr := flag.String("addr", ":8080", "HTTP listen address")
	dbPtr := flag.String("db", "./.database", "Pebble DB path")
	cfgPtr := flag.String("config", "./config.yaml", "Path to config file")
	flag.Parse()
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return Flags{Addr: *addrPtr, DB: *dbPtr, Config: *cfgPtr, Set: set}
}

// Effective resolves the final listen address and DB path from flags, env
// and file in that precedence order.
func Effective(cfg *Config, fl Flags) (addr, dbPath string) {
	addr = cfg.Addr()
	if fl.Set["addr"] {
		addr = fl.Addr
	}
	dbPath = cfg.Storage.DBPath
	if dbPath == "" || fl.Set["db"] {
		dbPath = fl.DB
	}
	return addr, dbPath
}
