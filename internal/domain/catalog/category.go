package catalog

import (
	"path"
	"strings"
)

// Category groups records by what kind of file they are.
type Category string

const (
	Document  Category = "Document"
	Image     Category = "Image"
	Audio     Category = "Audio"
	Video     Category = "Video"
	Archive   Category = "Archive"
	Directory Category = "Directory"
	Other     Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{Document, Image, Audio, Video, Archive, Directory, Other}

var extensionCategories = map[string]Category{
	".txt":  Document,
	".pdf":  Document,
	".doc":  Document,
	".docx": Document,
	".jpg":  Image,
	".png":  Image,
	".gif":  Image,
	".bmp":  Image,
	".mp3":  Audio,
	".wav":  Audio,
	".mp4":  Video,
	".mov":  Video,
	".zip":  Archive,
	".rar":  Archive,
}

// Classify derives the category of name. Directories are always Directory.
func Classify(name string, isDir bool) Category {
	if isDir {
		return Directory
	}
	ext := strings.ToLower(path.Ext(name))
	if c, ok := extensionCategories[ext]; ok {
		return c
	}
	return Other
}

// ParseCategory matches a category name case-insensitively.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}
