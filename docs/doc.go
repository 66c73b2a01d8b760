// Package docs provides generated OpenAPI documentation.
//
// Claimlens API
//
//	@title			Claimlens API
//	@version		1.0
//	@description	Upload PDF insurance forms, track extraction progress, and export merged claims.
//	@termsOfService	http://swagger.io/terms/
//
//	@contact.name	API Support
//	@contact.url	https://github.com/claimlens/claimlens
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/claimlens/serve.go -o ./swagger --parseDependency --parseInternal
