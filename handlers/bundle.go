// File: mastera/handlers/bundle.go
package handlers

// HandlerBundle groups the endpoint handlers into one struct.
type HandlerBundle struct {
	AdminHandler *AdminHandler
}
