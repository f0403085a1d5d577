package model

// Role is a staff role used for configuration authorization.
type Role string

const (
	RoleAdmin            Role = "admin"
	RoleMarketingManager Role = "marketing-manager"
	RoleStoreManager     Role = "store-manager"
	RoleBarista          Role = "barista"
)

// User is a staff member as listed in the roster.
type User struct {
	ID         string `yaml:"id" json:"id" validate:"required"`
	Name       string `yaml:"name" json:"name" validate:"required"`
	StoreID    string `yaml:"store_id" json:"storeId" validate:"required"`
	Role       Role   `yaml:"role" json:"role" validate:"oneof=admin marketing-manager store-manager barista"`
	Shift      string `yaml:"shift" json:"shift"`
	Department string `yaml:"department" json:"department"`
}

// Actor identifies who requests a configuration write.
type Actor struct {
	ID   string
	Name string
	Role Role
}

// ActorOf returns the Actor view of a user.
func ActorOf(u User) Actor {
	return Actor{ID: u.ID, Name: u.Name, Role: u.Role}
}
