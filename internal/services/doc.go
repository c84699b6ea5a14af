// Package services defines the error taxonomy shared by the external tool
// clients and the download pipeline.
package services
