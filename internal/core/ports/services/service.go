package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used by both the CLI commands and the HTTP handlers.
type ServiceContainer struct {
	Staging      StagingSvc
	Validation   ValidationSvc
	Confirmation ConfirmationSvc
	PeriodClose  PeriodCloseSvc
	Reporting    ReportingService
}
