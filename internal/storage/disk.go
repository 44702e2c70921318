package storage

import (
	"os"
)

// DiskUsageBytes returns the combined size of the store's backing files. Files that do
// not exist yet count as zero.
func DiskUsageBytes(store SnapshotStore) (int64, error) {
	var total int64
	for _, p := range store.Paths() {
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, err
		}
		total += info.Size()
	}
	return total, nil
}
