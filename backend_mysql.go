package ygggo_jdbd

import (
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

var mysqlTypes = map[string]ColumnType{
	"CHAR":       TypeString,
	"VARCHAR":    TypeString,
	"TEXT":       TypeString,
	"TINYTEXT":   TypeString,
	"MEDIUMTEXT": TypeString,
	"LONGTEXT":   TypeString,
	"NULL":       TypeString,

	"INT":       TypeInt,
	"INTEGER":   TypeInt,
	"BIGINT":    TypeInt,
	"MEDIUMINT": TypeInt,
	"SMALLINT":  TypeInt,
	"TINYINT":   TypeInt,
	"YEAR":      TypeInt,

	"FLOAT":   TypeDouble,
	"DOUBLE":  TypeDouble,
	"DECIMAL": TypeDouble,

	"BLOB":       TypeBytes,
	"TINYBLOB":   TypeBytes,
	"MEDIUMBLOB": TypeBytes,
	"LONGBLOB":   TypeBytes,
	"BINARY":     TypeBytes,
	"VARBINARY":  TypeBytes,
}

// mysqlColumnType maps go-sql-driver type names, e.g. "UNSIGNED BIGINT".
func mysqlColumnType(name string) ColumnType {
	name = strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(name)), "UNSIGNED ")
	return mysqlTypes[name]
}

func newMysqlBackend() *sqlBackend {
	return &sqlBackend{
		kind:       KindMySQL,
		driverName: "mysql",
		dsn:        mysqlDSN,
		columnType: mysqlColumnType,
	}
}
