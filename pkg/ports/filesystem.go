package ports

// FileSystem is the file access used by the load and export stages and the
// debug sink.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces path with data, creating parent directories.
	// Readers never observe a partially written file.
	WriteFile(path string, data []byte) error

	MkdirAll(path string) error
	Exists(path string) (bool, error)
}
