// Package toyyibpay is a Go client SDK for the ToyyibPay payment gateway.
//
// It builds signed form-encoded requests to create bills, query transactions
// and check payment status, and (via the webhook subpackage) parses inbound
// callback payloads into typed records and dispatches them to registered
// handlers.
//
//	cfg := &toyyibpay.Config{APIKey: "your-api-key", CategoryID: "abc123"}
//	client, err := toyyibpay.NewClient(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	bill, err := client.CreateBill(ctx, toyyibpay.CreateBillParams{
//	    Name:    "John Doe",
//	    Email:   "john@example.com",
//	    Phone:   "0123456789",
//	    Amount:  decimal.NewFromFloat(100.00),
//	    OrderID: "ORD-12345",
//	})
package toyyibpay

// Version is the SDK version reported in the User-Agent header.
const Version = "0.1.1"

const userAgent = "toyyibpay-go/" + Version
