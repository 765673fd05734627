// Package docs StaffHub API documentation
package docs

// Swagger documentation info
// @title StaffHub API
// @version 1.0
// @description Central API documentation - For all StaffHub microservices
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@staffhub.dev

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

// Auth Service Endpoints
// @tag.name auth
// @tag.description Authentication, registration and account approval lifecycle

// Core Service Endpoints
// @tag.name approvals
// @tag.description Registration approval queue
// @tag.name users
// @tag.description User profile management
// @tag.name organizations
// @tag.description Organization management
// @tag.name teams
// @tag.description Team management
// @tag.name shifts
// @tag.description Working shift management
// @tag.name attendance
// @tag.description Attendance tracking and CSV export
// @tag.name leave
// @tag.description Leave request lifecycle
// @tag.name rooms
// @tag.description Meeting rooms and bookings
// @tag.name salaries
// @tag.description Payroll records and XLSX export

// Notification Service Endpoints
// @tag.name notifications
// @tag.description Stored notifications, email delivery and realtime change feed
