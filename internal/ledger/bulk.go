package ledger

import "pazaryeri-backend/internal/models"

type BulkItem struct {
	ProductID uint
	Quantity  int
	Note      string
}

type BulkFailure struct {
	ProductID uint
	Error     string
}

type BulkInput struct {
	FranchiseID     uint
	Reason          string
	Items           []BulkItem
	PerformedBy     uint
	PerformedByName string
}

type BulkResult struct {
	Successes []*models.InventoryTransaction
	Failures  []BulkFailure
}

// ApplyBulk: Her kalemi bağımsız bir adjustment hareketi olarak Recorder'a
// yollar. Bir kalemin hatası diğerlerini durdurmaz ve geri almaz; sonuç
// kalem bazında raporlanır. Kalemler sırayla işlenir, böylece aynı ürüne
// ait iki kalem tek batch içinde birbiriyle yarışmaz.
func (r *Recorder) ApplyBulk(in BulkInput) BulkResult {
	var result BulkResult

	for _, item := range in.Items {
		note := item.Note
		if note == "" {
			note = in.Reason
		}

		entry, err := r.Record(RecordInput{
			FranchiseID:     in.FranchiseID,
			ProductID:       item.ProductID,
			Type:            models.TransactionAdjustment,
			Quantity:        item.Quantity,
			Note:            note,
			PerformedBy:     in.PerformedBy,
			PerformedByName: in.PerformedByName,
		})
		if err != nil {
			result.Failures = append(result.Failures, BulkFailure{
				ProductID: item.ProductID,
				Error:     err.Error(),
			})
			continue
		}
		result.Successes = append(result.Successes, entry)
	}

	return result
}
