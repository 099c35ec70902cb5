package types

import "encoding/base64"

// Paths of the six files every generation returns.
const (
	PathGoogleServices = "firebase/google-services.json"
	PathAppIcon        = "res/drawable/app_icon.xml"
	PathItem1Icon      = "res/drawable/item1_icon.xml"
	PathItem2Icon      = "res/drawable/item2_icon.xml"
	PathSettings       = "res/drawable/settings.xml"
	PathAppTree        = "tree/app.easy"
)

// ProjectFilePaths lists the result paths in display and archive order.
var ProjectFilePaths = []string{
	PathGoogleServices,
	PathAppIcon,
	PathItem1Icon,
	PathItem2Icon,
	PathSettings,
	PathAppTree,
}

// ProjectFiles is the result of a successful generation.
// AppTree holds the tree/app.easy document as an opaque JSON string.
type ProjectFiles struct {
	GoogleServices string `json:"firebase/google-services.json"`
	AppIcon        string `json:"res/drawable/app_icon.xml"`
	Item1Icon      string `json:"res/drawable/item1_icon.xml"`
	Item2Icon      string `json:"res/drawable/item2_icon.xml"`
	Settings       string `json:"res/drawable/settings.xml"`
	AppTree        string `json:"tree/app.easy"`
}

// FileEntry is one path/content pair of a ProjectFiles value.
type FileEntry struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Entries returns the six files in ProjectFilePaths order.
func (p ProjectFiles) Entries() []FileEntry {
	entries := make([]FileEntry, 0, len(ProjectFilePaths))
	for _, path := range ProjectFilePaths {
		content, _ := p.Get(path)
		entries = append(entries, FileEntry{Path: path, Content: content})
	}
	return entries
}

// Get returns the content stored at path. ok is false for unknown paths.
func (p ProjectFiles) Get(path string) (content string, ok bool) {
	switch path {
	case PathGoogleServices:
		return p.GoogleServices, true
	case PathAppIcon:
		return p.AppIcon, true
	case PathItem1Icon:
		return p.Item1Icon, true
	case PathItem2Icon:
		return p.Item2Icon, true
	case PathSettings:
		return p.Settings, true
	case PathAppTree:
		return p.AppTree, true
	}
	return "", false
}

// Set stores content at path. It reports false for unknown paths.
func (p *ProjectFiles) Set(path, content string) bool {
	switch path {
	case PathGoogleServices:
		p.GoogleServices = content
	case PathAppIcon:
		p.AppIcon = content
	case PathItem1Icon:
		p.Item1Icon = content
	case PathItem2Icon:
		p.Item2Icon = content
	case PathSettings:
		p.Settings = content
	case PathAppTree:
		p.AppTree = content
	default:
		return false
	}
	return true
}

// IsProjectFilePath reports whether path is one of the six result paths.
func IsProjectFilePath(path string) bool {
	var p ProjectFiles
	_, ok := p.Get(path)
	return ok
}

// InlineImage is a binary file ready to be sent inline to the model.
type InlineImage struct {
	Data     []byte
	MIMEType string
}

// Base64 returns the standard base64 encoding of the image bytes.
func (i InlineImage) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// ReferenceFile is a user supplied text file passed to the model verbatim.
type ReferenceFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// GenerationRequest is the validated input of one generation attempt.
type GenerationRequest struct {
	AppName            string
	FeatureDescription string
	Icon               InlineImage
	AdIdentifier       string
	ReferenceFiles     []ReferenceFile
}
