package leveldb

import (
	"fmt"
	"os"

	"github.com/kvsuite/kvdb"
	"github.com/kvsuite/kvdb/engine"
)

const dbType = "leveldb"

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// openDB opens or creates the database at dbPath, enforcing the
// existence semantics the driver contract requires.
func openDB(dbPath string, create bool) (engine.Engine, error) {
	dbExists := fileExists(dbPath)
	if !create && !dbExists {
		str := fmt.Sprintf("database %q does not exist", dbPath)
		return nil, kvdb.Error{
			ErrorCode:   kvdb.ErrDbDoesNotExist,
			Description: str,
		}
	}
	if create && dbExists {
		str := fmt.Sprintf("database %q already exists", dbPath)
		return nil, kvdb.Error{
			ErrorCode:   kvdb.ErrDbExists,
			Description: str,
		}
	}

	return NewDB(dbPath, create)
}

func init() {
	driver := kvdb.Driver{
		DbType: dbType,
		Create: func(dbPath string) (engine.Engine, error) {
			return openDB(dbPath, true)
		},
		Open: func(dbPath string) (engine.Engine, error) {
			return openDB(dbPath, false)
		},
	}
	if err := kvdb.RegisterDriver(driver); err != nil {
		panic(fmt.Sprintf("Failed to register database driver '%s': %v",
			dbType, err))
	}
}
