package env

type LogsEnvironment struct {
	Level      string `validate:"required,oneof=debug info warn error"`
	Dir        string `validate:"required,min=5"`
	DateFormat string `validate:"required,min=6"`
}
