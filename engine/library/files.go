package library

import (
	"os"
)

// Touch creates the file if it does not exist yet. Existing files are left alone.
func Touch(name string) error {
	_, err := os.Stat(name)
	if os.IsNotExist(err) {
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		return f.Close()
	}
	return err
}
