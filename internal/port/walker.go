package port

import "docsqa/internal/domain"

type FileWalker interface {
	Walk(root string) ([]FileInfo, error)
}

type FileInfo struct {
	Path    string
	ModTime int64
	Size    int64
}

type DocumentReader interface {
	ReadDocument(path string) (domain.Document, error)
}
