package main

// background runs fn on its own goroutine and turns a panic into a log line
// instead of a crashed process. Used for push and email side effects.
func (app *application) background(fn func()) {
	go func() {
		defer func() {
			if err := recover(); err != nil {
				app.logger.Errorw("background task panicked", "error", err)
			}
		}()
		fn()
	}()
}
