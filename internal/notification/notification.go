package notification

import (
    "context"
    "log/slog"
    "sync"
    "time"
)

const (
    // KindError is a failure surfaced to the user.
    KindError = "error"
    // KindInfo is a confirmation such as a completed sign-in.
    KindInfo = "info"
)

// Message describes a user-visible notice.
type Message struct {
    Kind   string    `json:"kind"`
    Source string    `json:"source"`
    Body   string    `json:"body"`
    At     time.Time `json:"at"`
}

// Notifier delivers notices to whatever displays them.
type Notifier interface {
    Send(ctx context.Context, message Message) error
}

// LoggerNotifier writes notices to the structured logger.
type LoggerNotifier struct {
    logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
    return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
    if n == nil || n.logger == nil {
        return nil
    }
    n.logger.Info("notification", "kind", message.Kind, "source", message.Source, "body", message.Body)
    return nil
}

// DefaultInboxSize bounds an Inbox created with a non-positive size.
const DefaultInboxSize = 50

// Inbox buffers notices until a client drains them. When full, the oldest
// notice is dropped.
type Inbox struct {
    mu      sync.Mutex
    size    int
    pending []Message
}

// NewInbox creates an inbox holding at most size notices.
func NewInbox(size int) *Inbox {
    if size <= 0 {
        size = DefaultInboxSize
    }
    return &Inbox{size: size}
}

// Send queues the message.
func (b *Inbox) Send(_ context.Context, message Message) error {
    if message.At.IsZero() {
        message.At = time.Now().UTC()
    }
    b.mu.Lock()
    defer b.mu.Unlock()
    if len(b.pending) == b.size {
        b.pending = b.pending[1:]
    }
    b.pending = append(b.pending, message)
    return nil
}

// Drain returns queued notices oldest first and empties the inbox.
func (b *Inbox) Drain() []Message {
    b.mu.Lock()
    defer b.mu.Unlock()
    out := b.pending
    b.pending = nil
    if out == nil {
        return []Message{}
    }
    return out
}

// Fanout sends each message to every notifier and returns the first error.
type Fanout []Notifier

// Send delivers message to all notifiers.
func (f Fanout) Send(ctx context.Context, message Message) error {
    var first error
    for _, n := range f {
        if n == nil {
            continue
        }
        if err := n.Send(ctx, message); err != nil && first == nil {
            first = err
        }
    }
    return first
}
