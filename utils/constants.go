package utils

import "time"

// Application constants
const (
	// Application name
	AppName = "LearningEdge"

	// API version
	APIVersion = "v1"

	// Default port
	DefaultPort = "5000"

	// Default database settings
	DefaultDBHost = "localhost"
	DefaultDBPort = "5432"
	DefaultDBName = "learningedge"
	DefaultDBUser = "postgres"

	// Default log directory
	DefaultLogDir = "logs"

	// Currency used for every gateway order
	DefaultCurrency = "INR"

	// Bound on a single payment gateway round trip
	DefaultGatewayTimeout = 10 * time.Second

	// Bound on a single mail or media upload round trip
	DefaultOutboundTimeout = 30 * time.Second

	// Default SMTP port
	DefaultMailPort = 587

	// Default kafka topic for enrollment events
	DefaultEnrollmentTopic = "course.enrollments"

	// JWT token lifetime
	JWTExpiration = 24 * time.Hour

	// Lifetime of the login cookie
	TokenCookieExpiration = 3 * 24 * time.Hour

	// OTP lifetime
	OTPExpiration = 5 * time.Minute

	// Maximum image upload size (5MB)
	MaxImageSize = 5 * 1024 * 1024

	// Maximum video upload size (500MB)
	MaxVideoSize = 500 * 1024 * 1024

	// Memory gin keeps per multipart request before spilling to disk
	MaxMultipartMemory = 32 << 20

	// URL prefix of locally stored media
	LocalMediaPrefix = "/uploads"

	// Default pagination limit
	DefaultPaginationLimit = 10

	// Maximum pagination limit
	MaxPaginationLimit = 100
)

// Error messages
const (
	ErrInvalidCredentials = "Invalid email or password"
	ErrInvalidToken       = "Error while decoding token"
	ErrTokenMissing       = "Token is Missing"
	ErrInternalServer     = "Internal server error"
)

// Success messages
const (
	MsgLoginSuccess    = "User logged in successfully"
	MsgRegisterSuccess = "User Registered Successfully"
	MsgOTPSent         = "OTP sent successfully"
	MsgCreateSuccess   = "Created successfully"
	MsgUpdateSuccess   = "Updated successfully"
	MsgDeleteSuccess   = "Deleted successfully"
)
