package gen

import (
	"fmt"
	"math/rand"
	"strconv"
)

// Rule produces one freshly drawn value for a placeholder occurrence.
type Rule func(rng *rand.Rand) string

// Tables holds the static reference data the generator draws from.
type Tables struct {
	Components []string
	Weights    [numLevels]int
	Templates  map[Level][]string
	Rules      map[string]Rule
}

// DefaultTables returns the built-in reference tables. The distribution is a
// realistic production mix: mostly INFO with DEBUG, rare errors.
func DefaultTables() Tables {
	return Tables{
		Components: []string{
			"HttpServer", "Database", "Cache", "Auth", "Scheduler",
			"MessageQueue", "FileProcessor", "ApiGateway", "Metrics", "Config",
		},
		Weights: [numLevels]int{2, 25, 60, 8, 4, 1},
		Templates: map[Level][]string{
			Trace: {
				"Entering method {Method} with parameters {Params}",
				"Variable state: {State}",
				"Loop iteration {Index} of {Total}",
			},
			Debug: {
				"Processing request {RequestId}",
				"Cache lookup for key {Key}",
				"Parsed configuration: {Config}",
				"Connection pool status: {Active}/{Max} active",
				"Query execution plan generated",
			},
			Info: {
				"GET /api/v1/users/{UserId} completed in {Duration}ms",
				"POST /api/v1/orders completed in {Duration}ms",
				"GET /api/v1/products?page={Index} completed in {Duration}ms",
				"PUT /api/v1/users/{UserId}/profile completed in {Duration}ms",
				"DELETE /api/v1/sessions/{RequestId} completed in {Duration}ms",
				"Request {RequestId} completed in {Duration}ms",
				"User {UserId} authenticated successfully",
				"Scheduled job {JobName} started",
				"Scheduled job {JobName} completed in {Duration}ms",
				"File {FileName} processed, {Records} records",
				"Service started on port {Port}",
				"Health check passed",
				"Configuration reloaded",
				"Connected to database {Database}",
				"Message published to {Queue}",
				"Message consumed from {Queue} in {Duration}ms",
				"Batch processing completed: {Processed}/{Total} items",
				"Cache hit for key {Key}",
				"Database query executed in {Duration}ms",
				"Outbound HTTP call to {Service} completed in {Duration}ms",
			},
			Warn: {
				"Slow query detected: {Duration}ms for {Query}",
				"Rate limit approaching for client {ClientId}",
				"Retry attempt {Attempt} for operation {Operation}",
				"Memory usage at {Percent}%",
				"Certificate expires in {Days} days",
				"Deprecated API endpoint called: {Endpoint}",
				"Connection pool exhausted, waiting for available connection",
			},
			Error: {
				"Failed to process request {RequestId}: {Error}",
				"Database connection failed: {Error}",
				"Authentication failed for user {UserId}",
				"Timeout waiting for response from {Service}",
				"Invalid message format: {Details}",
				"File not found: {FileName}",
				"Unhandled exception in {Component}: {Error}",
			},
			Fatal: {
				"Application startup failed: {Error}",
				"Critical resource unavailable: {Resource}",
				"Data corruption detected in {Table}",
				"Unrecoverable error, shutting down",
			},
		},
		Rules: defaultRules(),
	}
}

// Apply overlays profile overrides onto the built-in tables. Component lists
// replace, weights replace per level, templates append to the level's pool.
func (t *Tables) Apply(components []string, weights map[string]int, extra map[string][]string) error {
	if len(components) > 0 {
		t.Components = components
	}
	for name, w := range weights {
		lvl, ok := ParseLevel(name)
		if !ok {
			return fmt.Errorf("unknown level %q in weights", name)
		}
		if w <= 0 {
			return fmt.Errorf("weight for %s must be positive, got %d", lvl, w)
		}
		t.Weights[lvl] = w
	}
	for name, tmpls := range extra {
		lvl, ok := ParseLevel(name)
		if !ok {
			return fmt.Errorf("unknown level %q in templates", name)
		}
		t.Templates[lvl] = append(t.Templates[lvl], tmpls...)
	}
	return nil
}

func defaultRules() map[string]Rule {
	components := []string{
		"HttpServer", "Database", "Cache", "Auth", "Scheduler",
		"MessageQueue", "FileProcessor", "ApiGateway", "Metrics", "Config",
	}
	return map[string]Rule{
		"RequestId": hexID,
		"UserId": func(r *rand.Rand) string {
			return "user_" + strconv.Itoa(intIn(r, 1000, 9999))
		},
		"Duration": randomDuration,
		"Port": func(r *rand.Rand) string {
			return pick(r, "8080", "443", "3000", "5000", "9000")
		},
		"Key": func(r *rand.Rand) string {
			return "cache:" + pick(r, "user", "session", "config") + ":" + hexID(r)
		},
		"Config": fixed(`{"timeout": 30, "retries": 3}`),
		"Active": intRule(1, 20),
		"Max":    fixed("20"),
		"JobName": func(r *rand.Rand) string {
			return pick(r, "CleanupJob", "ReportGenerator", "DataSync", "BackupJob")
		},
		"FileName": func(r *rand.Rand) string {
			return pick(r, "data", "export", "import", "report") + "_" + hexID(r) + ".csv"
		},
		"Records": intRule(100, 10000),
		"Database": func(r *rand.Rand) string {
			return pick(r, "postgres://db:5432/app", "mysql://db:3306/app")
		},
		"Queue": func(r *rand.Rand) string {
			return pick(r, "orders", "notifications", "events", "tasks")
		},
		"Processed": intRule(100, 1000),
		"Total":     intRule(1000, 1100),
		"Query":     fixed("SELECT * FROM users WHERE..."),
		"ClientId": func(r *rand.Rand) string {
			return "client_" + hexID(r)
		},
		"Attempt": intRule(1, 5),
		"Operation": func(r *rand.Rand) string {
			return pick(r, "SendEmail", "ProcessPayment", "SyncData")
		},
		"Percent": intRule(70, 95),
		"Days":    intRule(1, 30),
		"Endpoint": func(r *rand.Rand) string {
			return "/api/v1/" + pick(r, "users", "orders", "legacy")
		},
		"Error": func(r *rand.Rand) string {
			return pick(r,
				"Connection refused",
				"Timeout exceeded",
				"Invalid token",
				"Resource not found",
				"Permission denied",
			)
		},
		"Service": func(r *rand.Rand) string {
			return pick(r, "UserService", "PaymentService", "NotificationService")
		},
		"Details": fixed(`Unexpected field "foo" at position 42`),
		"Component": func(r *rand.Rand) string {
			return components[r.Intn(len(components))]
		},
		"Resource": func(r *rand.Rand) string {
			return pick(r, "Database", "Redis", "MessageBroker")
		},
		"Table": func(r *rand.Rand) string {
			return pick(r, "users", "orders", "transactions")
		},
		"Method": func(r *rand.Rand) string {
			return pick(r, "ProcessOrder", "ValidateInput", "Transform")
		},
		"Params": fixed(`{id: 123, type: "full"}`),
		"State":  fixed(`{counter: 42, flag: true}`),
		"Index":  intRule(1, 100),
	}
}

// randomDuration draws a latency bucket first, then a value inside it, so the
// distribution keeps a long tail like real request timings.
func randomDuration(r *rand.Rand) string {
	buckets := [4][2]int{{1, 50}, {50, 200}, {200, 1000}, {1000, 5000}}
	b := buckets[r.Intn(len(buckets))]
	return strconv.Itoa(intIn(r, b[0], b[1]))
}

func fixed(s string) Rule {
	return func(*rand.Rand) string { return s }
}

func intRule(lo, hi int) Rule {
	return func(r *rand.Rand) string { return strconv.Itoa(intIn(r, lo, hi)) }
}

// intIn returns a random integer in the inclusive range [lo, hi].
func intIn(r *rand.Rand, lo, hi int) int {
	return lo + r.Intn(hi-lo+1)
}

func pick(r *rand.Rand, options ...string) string {
	return options[r.Intn(len(options))]
}

const hexDigits = "0123456789abcdef"

// hexID returns an 8-character lowercase hex identifier.
func hexID(r *rand.Rand) string {
	b := make([]byte, 8)
	for i := range b {
		b[i] = hexDigits[r.Intn(len(hexDigits))]
	}
	return string(b)
}
