package domain

type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard    PaymentMethod = "DEBIT_CARD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
)

type PaymentDetails struct {
	CardholderName string
	// CardNumberMasked keeps only the last four digits.
	CardNumberMasked string
	Method           PaymentMethod
	AmountCents      int64
}

func MaskCardNumber(number string) string {
	if len(number) < 4 {
		return "****"
	}
	return "**** **** **** " + number[len(number)-4:]
}
