package user

// User is the owner of scheduled items. The delivery engine only reads
// users, to address and sign notification emails.
type User struct {
	UID   string
	Name  string
	Email string
}
