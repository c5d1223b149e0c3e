package actors

import (
	"fmt"
	"os"
	"path/filepath"
)

// Open returns the flat file for the given mind and db, or false if nothing has been written yet.
func Open(mind, db string) (*os.File, bool, error) {
	name := filepath.Join(directory(mind), db+".dat")
	file, err := os.Open(name)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("open %s: %w", name, err)
	}
	return file, true, nil
}

// Write replaces the flat file for the given mind and db. The data is written to a
// temporary file first so a crash never leaves a half written snapshot behind.
func Write(mind, db string, b []byte) error {
	if err := os.MkdirAll(directory(mind), 0700); err != nil {
		return err
	}
	name := filepath.Join(directory(mind), db+".dat")
	tmp := name + ".tmp"
	if err := os.WriteFile(tmp, b, 0600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, name); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

func directory(mind string) string {
	dir := MakeOrGetConfig().GetString("rootDir")
	dir = dir + MakeOrGetConfig().GetString("flatFileDir")
	dir = dir + mind + "/"
	return dir
}
