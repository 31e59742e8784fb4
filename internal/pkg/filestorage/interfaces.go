package filestorage

import "mime/multipart"

// StoredFile is the durable handle returned by a storage backend: a
// public URL plus the key needed to delete the object later.
type StoredFile struct {
	URL string
	Key string
}

// Storage abstracts the media storage backend.
type Storage interface {
	// Save stores an uploaded file under the given subdirectory and
	// returns its durable URL and deletable key.
	Save(fileHeader *multipart.FileHeader, subPath string) (*StoredFile, error)

	// Delete removes a stored object by its key. Deleting a missing
	// object is not an error.
	Delete(key string) error
}
