package models

// AppItem is an application known to the app registry. Only its name is used, as a filter.
type AppItem struct {
	AppName string `json:"app_name"`
}
