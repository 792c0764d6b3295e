package deps

// DefaultFeatures is the built-in feature catalog, in the order the wizard
// offers it.
var DefaultFeatures = NewCatalog()

// NewCatalog returns a fresh registry holding the built-in features. Callers
// that add their own features start from this instead of DefaultFeatures.
func NewCatalog() *FeatureRegistry {
	r := NewFeatureRegistry()
	for _, f := range builtinFeatures {
		r.MustRegister(f)
	}
	return r
}

var builtinFeatures = []Feature{
	{
		ID:    "oauth",
		Label: "OAuth 2.0 (Google, GitHub)",
		Hint:  "Social login integration",
		Dependencies: map[string]string{
			"passport":                "^0.7.0",
			"passport-google-oauth20": "^2.0.0",
			"passport-github2":        "^0.1.12",
		},
	},
	{
		ID:    "clerk-auth",
		Label: "Clerk Authentication",
		Hint:  "Modern auth service",
		Dependencies: map[string]string{
			"@clerk/clerk-sdk-node": "^4.13.14",
			"@clerk/express":        "^0.1.7",
		},
	},
	{
		ID:    "graphql",
		Label: "GraphQL (Apollo Server)",
		Hint:  "GraphQL API with Apollo",
		Dependencies: map[string]string{
			"apollo-server-express": "^3.13.0",
			"graphql":               "^16.8.1",
			"class-validator":       "^0.14.1",
			"type-graphql":          "^2.0.0-beta.6",
		},
	},
	{
		ID:    "microservices",
		Label: "Microservices Template",
		Hint:  "Service discovery & communication",
		Dependencies: map[string]string{
			"kafkajs": "^2.2.4",
			"amqplib": "^0.10.4",
			"redis":   "^4.6.13",
			"axios":   "^1.6.7",
		},
	},
	{
		ID:    "websocket",
		Label: "WebSocket (Socket.io)",
		Hint:  "Real-time communication",
		Dependencies: map[string]string{
			"socket.io":        "^4.7.5",
			"socket.io-client": "^4.7.5",
		},
	},
	{
		ID:    "message-queue",
		Label: "Message Queue (RabbitMQ)",
		Hint:  "Async messaging",
		Dependencies: map[string]string{
			"amqplib": "^0.10.4",
		},
	},
	{
		ID:    "s3-upload",
		Label: "S3 File Upload",
		Hint:  "AWS S3 integration",
		Dependencies: map[string]string{
			"aws-sdk":   "^2.1606.0",
			"multer":    "^1.4.5-lts.1",
			"multer-s3": "^3.0.1",
			"uuid":      "^9.0.1",
		},
	},
	{
		ID:    "email",
		Label: "Email Service (SendGrid)",
		Hint:  "Transactional emails",
		Dependencies: map[string]string{
			"@sendgrid/mail": "^8.1.3",
			"nodemailer":     "^6.9.13",
		},
	},
	{
		ID:    "payment-stripe",
		Label: "Payment (Stripe)",
		Hint:  "Global payment processing",
		Dependencies: map[string]string{
			"stripe": "^15.7.0",
		},
	},
	{
		ID:    "payment-razorpay",
		Label: "Payment (Razorpay)",
		Hint:  "Indian payment gateway",
		Dependencies: map[string]string{
			"razorpay": "^2.9.2",
		},
	},
	{
		ID:    "admin-dashboard",
		Label: "Admin Dashboard",
		Hint:  "Basic admin interface",
		Dependencies: map[string]string{
			"adminjs":           "^7.1.0",
			"@adminjs/express":  "^6.1.0",
			"@adminjs/mongoose": "^4.0.0",
		},
	},
	{
		ID:    "migrations-ui",
		Label: "Database Migrations UI",
		Hint:  "Web-based migrations",
		Dependencies: map[string]string{
			"migrate-mongo": "^11.0.0",
		},
	},
	{
		ID:    "load-testing",
		Label: "Load Testing (k6)",
		Hint:  "Performance testing scripts",
		DevDependencies: map[string]string{
			"k6": "^0.52.0",
		},
	},
}
