package ygggo_jdbd

import "context"

// DriverFactory builds a Driver from fluent settings.
//
//	d, err := NewPostgresDriverFactory().
//		Host("db.internal").
//		Username("app").
//		Password(secret).
//		Database("orders").
//		Build(ctx)
type DriverFactory struct {
	cfg         Config
	loadOnBuild bool
}

// NewMysqlDriverFactory returns a factory whose Build yields an
// uninitialized MySQL driver; the caller loads it.
func NewMysqlDriverFactory() *DriverFactory {
	return &DriverFactory{cfg: Config{Kind: KindMySQL}}
}

// NewPostgresDriverFactory returns a factory whose Build yields a loaded
// PostgreSQL driver.
func NewPostgresDriverFactory() *DriverFactory {
	return &DriverFactory{cfg: Config{Kind: KindPostgres}, loadOnBuild: true}
}

func (f *DriverFactory) Host(host string) *DriverFactory {
	f.cfg.Host = host
	return f
}

func (f *DriverFactory) Port(port int) *DriverFactory {
	f.cfg.Port = port
	return f
}

func (f *DriverFactory) Username(username string) *DriverFactory {
	f.cfg.Username = username
	return f
}

func (f *DriverFactory) Password(password string) *DriverFactory {
	f.cfg.Password = password
	return f
}

func (f *DriverFactory) Database(database string) *DriverFactory {
	f.cfg.Database = database
	return f
}

// Param adds a backend connection parameter, e.g. sslmode or parseTime.
func (f *DriverFactory) Param(key, value string) *DriverFactory {
	if f.cfg.Params == nil {
		f.cfg.Params = map[string]string{}
	}
	f.cfg.Params[key] = value
	return f
}

func (f *DriverFactory) Pool(p PoolConfig) *DriverFactory {
	f.cfg.Pool = p
	return f
}

func (f *DriverFactory) Logging(l LoggingConfig) *DriverFactory {
	f.cfg.Logging = l
	return f
}

// Config returns a copy of the settings collected so far.
func (f *DriverFactory) Config() Config {
	c := f.cfg
	if f.cfg.Params != nil {
		c.Params = make(map[string]string, len(f.cfg.Params))
		for k, v := range f.cfg.Params {
			c.Params[k] = v
		}
	}
	return c
}

// Build validates the settings and creates the driver. Host and database
// are required. PostgreSQL drivers are loaded before they are returned;
// a load failure is returned as *LoadError and no driver.
func (f *DriverFactory) Build(ctx context.Context) (*Driver, error) {
	d, err := NewDriver(f.Config())
	if err != nil {
		return nil, err
	}
	if f.loadOnBuild {
		if err := d.Load(ctx); err != nil {
			return nil, err
		}
	}
	return d, nil
}
