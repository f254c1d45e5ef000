package controllers

// Controllers bundles the handlers the router installs.
type Controllers struct {
	Main      *MainController
	Auth      *AuthController
	Dashboard *DashboardController
	Settings  *SettingsController
	Players   *PlayerController
	Billing   *BillingController
}
