// Package common contains shared constants and sentinel errors used across
// labdrive components.
package common

// Names of the cookies and headers that make up the backend's CSRF and
// session scheme. Both the client and the development server use them.
const (
	CSRFCookieName    = "csrftoken"
	CSRFHeaderName    = "X-CSRFToken"
	SessionCookieName = "sessionid"
)

// ImageStorageKeySuffix is appended to the project slug to form the local
// storage key of the cached image-storage credentials.
const ImageStorageKeySuffix = "-imageStorage"
