// Package subtest provides test cases that enqueue further tests while they
// run. Queued tests execute after the enclosing test has fully finished,
// tear-down and result notifications included, against the same result.
//
//	type OrderTest struct {
//		subtest.IntegrationTestCase
//	}
//
//	func (t *OrderTest) TestTotals() {
//		order := placeOrder()
//		t.SoftAssertEquals("items", 3, len(order.Items))
//		t.SoftAssertTrue("paid", order.Paid)
//	}
//
// Each soft assertion is reported as its own test, so one failing check does
// not hide the others.
package subtest
