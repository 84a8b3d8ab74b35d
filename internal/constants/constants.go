package constants

const (
	// ContextKeyUserID is the gin context key holding the authenticated user's ID
	ContextKeyUserID = "user_id"
	// ContextKeyUser is the gin context key holding the authenticated *models.User
	ContextKeyUser = "user"
	// ContextKeyClaims is the gin context key holding the parsed token claims
	ContextKeyClaims = "claims"

	MinPasswordLength = 6

	TokenType = "bearer"

	// UploadsRoute is the public URL prefix for locally stored images
	UploadsRoute = "/uploads"

	// ImageFormField is the multipart field carrying a task image
	ImageFormField = "image"
	// ImageFilePrefix prefixes every generated image filename
	ImageFilePrefix = "task_"
	// DefaultImageExtension is used when the uploaded filename has no extension
	DefaultImageExtension = "jpg"

	// MaxUploadMemory bounds the in-memory part of multipart parsing
	MaxUploadMemory = 8 << 20
)

// AllowedImageTypes lists the accepted image content types
var AllowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
}
