// Package endpoint exposes the hourly Service over HTTP using the same routes
// as the web client: demand and developer CRUD, allocate,
// reorder-allocate, reset and CSV download.
package endpoint
