package email

// GlobalEmailService is the process-wide sender. Nil until InitEmailService
// succeeds; callers nil-check it and skip sending when email is not
// configured.
var GlobalEmailService *EmailService

func InitEmailService(apiKey string) error {
	service, err := NewEmailService(apiKey)
	if err != nil {
		return err
	}
	GlobalEmailService = service
	return nil
}
