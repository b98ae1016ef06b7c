package deck

// Level separates good news from bad in a Notification.
type Level int

const (
	Success Level = iota
	Failure
)

func (l Level) String() string {
	if l == Success {
		return "success"
	}
	return "failure"
}

// Notification is a user-facing message produced at an operation boundary.
type Notification struct {
	Level   Level
	Message string
}

// Notifier displays notifications. Implementations must not block for long;
// they are called from the goroutine that ran the operation.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

const (
	msgLoadFailed   = "Failed to load flashcards."
	msgAdded        = "Flashcard added successfully!"
	msgAddFailed    = "Failed to add flashcard."
	msgUpdated      = "Flashcard updated successfully!"
	msgUpdateFailed = "Failed to update flashcard."
	msgDeleted      = "Flashcard deleted successfully!"
	msgDeleteFailed = "Failed to delete flashcard."
)
