package notifier_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"gift_wheel/internal/domain/entity"
	"gift_wheel/internal/infrastructure/notifier"
)

func TestPurchaseTexts(t *testing.T) {
	rq := require.New(t)

	task := entity.PurchaseTask{
		UserGiftID:  "g-1",
		UserID:      "<script>",
		SaleAddress: "EQsale",
		NftAddress:  "EQnft",
		PriceNano:   "2800000000",
	}

	ok := notifier.PurchaseSubmittedText(task, entity.PurchaseResult{
		SaleAddress: "0:abc", PriceNano: big.NewInt(1), Status: entity.StatusSubmitted,
	})
	rq.Contains(ok, "&lt;script&gt;")
	rq.Contains(ok, "0:abc")
	rq.Contains(ok, "submitted")

	failed := notifier.PurchaseFailedText(task, errors.New("wallet <none>"))
	rq.Contains(failed, "g-1")
	rq.Contains(failed, "wallet &lt;none&gt;")
}
