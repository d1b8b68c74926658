package auth

// Role закрытый перечень ролей платформы
// Проверки доступа выполняются явными capability-функциями,
// а не сравнением произвольных строк в обработчиках
type Role string

const (
	RoleCustomer     Role = "customer"
	RoleReceptionist Role = "receptionist"
	RoleTenantAdmin  Role = "tenant_admin"
)

// ParseRole валидирует строковое представление роли
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleReceptionist, RoleTenantAdmin:
		return Role(s), nil
	default:
		return "", ErrUnknownRole
	}
}

// CanCreateBooking разрешает создание бронирования от имени тенанта
func CanCreateBooking(c *Claims) bool {
	return c != nil && (c.Role == RoleReceptionist || c.Role == RoleTenantAdmin)
}

// CanUpdateBooking разрешает изменение полей бронирования
func CanUpdateBooking(c *Claims) bool {
	return c != nil && (c.Role == RoleReceptionist || c.Role == RoleTenantAdmin)
}

// CanChangeSlot разрешает перенос бронирования на другой слот
// Перенос затрагивает вместимость двух слотов, поэтому доступен
// только администратору тенанта
func CanChangeSlot(c *Claims) bool {
	return c != nil && c.Role == RoleTenantAdmin
}

// CanCancelBooking разрешает отмену бронирования
func CanCancelBooking(c *Claims) bool {
	return c != nil && (c.Role == RoleReceptionist || c.Role == RoleTenantAdmin)
}

// CanManagePackages разрешает оформление подписок и просмотр лимитов пакетов
func CanManagePackages(c *Claims) bool {
	return c != nil && (c.Role == RoleReceptionist || c.Role == RoleTenantAdmin)
}
