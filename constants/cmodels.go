package constants

// Object kinds. A kind determines which ingester handles a directory.
const (
	KindSingle         = "single"
	KindBook           = "book"
	KindNewspaperIssue = "newspaper_issue"
	KindCompound       = "compound"
)

// Content models for the composite types and their children.
const (
	CModelBook          = "islandora:bookCModel"
	CModelCompound      = "islandora:compoundCModel"
	CModelNewspaper     = "islandora:newspaperIssueCModel"
	CModelNewspaperPage = "islandora:newspaperPageCModel"
	CModelPage          = "islandora:pageCModel"
)

// MimeTypes maps file extensions (lowercase, no dot) to MIME types for
// files we cannot or do not identify by content.
var MimeTypes = map[string]string{
	"csv":  "text/csv",
	"gif":  "image/gif",
	"jp2":  "image/jp2",
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"mp3":  "audio/mpeg",
	"mp4":  "video/mp4",
	"ogg":  "audio/ogg",
	"pdf":  "application/pdf",
	"png":  "image/png",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"txt":  "text/plain",
	"wav":  "audio/x-wav",
	"warc": "application/warc",
	"xml":  "application/xml",
	"zip":  "application/zip",
}

// ContentModels maps file extensions to the content model we assign
// when a directory contains no cmodel.txt and the caller gave us no
// explicit model. Classification falls through to this table last, and
// fails (the directory is skipped) when the extension is absent here.
var ContentModels = map[string]string{
	"gif":  "islandora:sp_basic_image",
	"jp2":  "islandora:sp_large_image_cmodel",
	"jpeg": "islandora:sp_basic_image",
	"jpg":  "islandora:sp_basic_image",
	"mp3":  "islandora:sp-audioCModel",
	"mp4":  "islandora:sp_videoCModel",
	"ogg":  "islandora:sp-audioCModel",
	"pdf":  "islandora:sp_pdf",
	"png":  "islandora:sp_basic_image",
	"tif":  "islandora:sp_large_image_cmodel",
	"tiff": "islandora:sp_large_image_cmodel",
	"wav":  "islandora:sp-audioCModel",
	"warc": "islandora:sp_web_archive",
}

// KindForModel maps content models to the kind of ingester that
// handles them. Models not listed here are ingested as single objects.
// A classmap file supplied at startup is merged over this table.
var KindForModel = map[string]string{
	CModelBook:      KindBook,
	CModelCompound:  KindCompound,
	CModelNewspaper: KindNewspaperIssue,
}
