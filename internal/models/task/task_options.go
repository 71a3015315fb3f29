package task

type TaskOption func(*Task)

func WithCategory(category Category) TaskOption {
	return func(task *Task) {
		task.Category = category
	}
}

func WithPosition(position int) TaskOption {
	return func(task *Task) {
		task.Position = &position
	}
}

// Apply пропускает nil-опции
func (t *Task) Apply(options ...TaskOption) {
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(t)
	}
}
