package config

import "time"

// DBConfig holds the Postgres connection behind the user directory.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"laxenta"`
	Password string `env:"PASSWORD" envDefault:"laxenta"`
	Name     string `env:"NAME"     envDefault:"laxenta"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // 'require' in production

	// Connection pool.
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS"     envDefault:"10"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS"     envDefault:"2"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME"  envDefault:"5m"`

	// RunMigrationsOnStart applies the embedded migrations when the web process boots.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// Sanitize keeps pool settings within workable bounds.
func (c *DBConfig) Sanitize() {
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 10
	}
	if c.MaxIdleConns < 0 || c.MaxIdleConns > c.MaxOpenConns {
		c.MaxIdleConns = c.MaxOpenConns
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = 5 * time.Minute
	}
}

// RedisConfig selects one of three deployment shapes: a direct URI (the
// default), sentinel when UseSentinel is set, or cluster when UseCluster is set.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}
