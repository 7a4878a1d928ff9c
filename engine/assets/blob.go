package assets

import "github.com/spaghettifunk/ember/engine/resources"

// Blob is the raw content of a file.
type Blob struct {
	resources.Base
	Data []byte
}

func (b *Blob) Text() string {
	return string(b.Data)
}

func (b *Blob) Len() int {
	return len(b.Data)
}

func LoadBlob(l *resources.Loader) (*Blob, error) {
	data, err := l.ReadFile()
	if err != nil {
		return nil, err
	}
	return &Blob{Data: data}, nil
}
