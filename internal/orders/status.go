package orders

import (
	"errors"

	"pazaryeri-backend/internal/models"
)

var (
	ErrInvalidTransition = errors.New("geçersiz sipariş durumu geçişi")
	ErrStatusConflict    = errors.New("sipariş durumu eşzamanlı istekte değişti")
)

// Sipariş durum makinesi. delivered ve cancelled uç durumdur; kargoya
// verilmiş (shipped) sipariş artık iptal edilemez.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:    {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed:  {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered},
}

func ValidStatus(s models.OrderStatus) bool {
	switch s {
	case models.OrderStatusPending, models.OrderStatusConfirmed,
		models.OrderStatusProcessing, models.OrderStatusShipped,
		models.OrderStatusDelivered, models.OrderStatusCancelled:
		return true
	}
	return false
}

func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// FlipFunc: Durum yazmasını, durumun hâlâ from olması koşuluna bağlayan
// yazıcı. Koşul tutmadıysa yazmaz ve false döner.
type FlipFunc func(from, to models.OrderStatus) (bool, error)

// Transition: Geçiş tablosu kontrolünü ve koşullu durum yazmasını
// birleştirir. Yazma, kararın verildiği from durumunun hâlâ geçerli
// olması koşuluna bağlıdır; araya giren bir istek durumu değiştirdiyse
// ErrStatusConflict döner. İki istek aynı okumadan asla iki geçiş üretmez.
func Transition(from, to models.OrderStatus, flip FlipFunc) error {
	if !CanTransition(from, to) {
		return ErrInvalidTransition
	}
	ok, err := flip(from, to)
	if err != nil {
		return err
	}
	if !ok {
		return ErrStatusConflict
	}
	return nil
}
