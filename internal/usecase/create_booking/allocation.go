package create_booking

import (
	"github.com/bookati/Bookati-BookingService/internal/domain"
)

// allocateFromSubscriptions распределяет n посещений по строкам леджера
// Строки приходят уже отсортированными: сначала самая старая подписка
// (репозиторий упорядочивает по subscribed_at ASC), поэтому пакеты
// исчерпываются предсказуемо - first-in-first-used.
//
// С каждой строки списывается min(remaining, остаток запроса); списание
// никогда не превышает остаток строки. Если строк не хватило, непокрытая
// часть запроса остается на оплату деньгами.
func allocateFromSubscriptions(usages []*domain.PackageSubscriptionUsage, n int) []domain.PackageAllocation {
	allocations := make([]domain.PackageAllocation, 0, len(usages))

	left := n
	for _, u := range usages {
		if left == 0 {
			break
		}
		if u.RemainingQuantity <= 0 {
			continue
		}

		take := u.RemainingQuantity
		if take > left {
			take = left
		}

		allocations = append(allocations, domain.PackageAllocation{
			SubscriptionID: u.SubscriptionID,
			ServiceID:      u.ServiceID,
			Quantity:       take,
			Exhausted:      take == u.RemainingQuantity,
		})
		left -= take
	}

	return allocations
}

// coveredQuantity возвращает суммарное число посещений, покрытых пакетами
func coveredQuantity(allocations []domain.PackageAllocation) int {
	total := 0
	for _, a := range allocations {
		total += a.Quantity
	}
	return total
}
