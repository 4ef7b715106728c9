package toyyibpay

import (
	"net/url"
	"strconv"
)

// formValues flattens a CreateBillInput into the gateway's form fields.
// This is where the bill amount is converted to minor units — nowhere else.
func (in CreateBillInput) formValues() url.Values {
	v := url.Values{}
	v.Set("categoryCode", in.CategoryCode)
	v.Set("billName", in.BillName)
	v.Set("billDescription", in.BillDescription)
	v.Set("billPriceSetting", strconv.Itoa(int(in.BillPriceSetting)))
	v.Set("billPayorInfo", strconv.Itoa(int(in.BillPayorInfo)))
	v.Set("billAmount", strconv.FormatInt(AmountToCents(in.Amount), 10))
	v.Set("billReturnUrl", in.ReturnURL)
	v.Set("billCallbackUrl", in.CallbackURL)
	v.Set("billExternalReferenceNo", in.ExternalReferenceNo)
	v.Set("billTo", in.BillTo)
	v.Set("billEmail", in.Email)
	v.Set("billPhone", in.Phone)
	if in.ContentEmail != "" {
		v.Set("billContentEmail", in.ContentEmail)
	}
	if in.ExpiryDate != "" {
		v.Set("billExpiryDate", in.ExpiryDate)
	}
	expiryDays := in.ExpiryDays
	if expiryDays == 0 {
		expiryDays = DefaultBillExpiryDays
	}
	v.Set("billExpiryDays", strconv.Itoa(expiryDays))
	v.Set("billSplitPayment", boolField(in.SplitPayment))
	if in.SplitPaymentArgs != "" {
		v.Set("billSplitPaymentArgs", in.SplitPaymentArgs)
	}
	v.Set("billPaymentChannel", strconv.Itoa(int(in.PaymentChannel)))
	v.Set("billChargeToCustomer", strconv.Itoa(int(in.ChargeToCustomer)))
	v.Set("chargeFPXB2B", strconv.Itoa(int(in.ChargeFPXB2B)))
	v.Set("enableFPXB2B", boolField(in.EnableFPXB2B))
	return v
}

// boolField encodes a boolean the way the gateway expects form booleans.
func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
