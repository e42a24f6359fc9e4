package mailer

import (
	"fmt"
	"strings"

	"github.com/chopie/restaurant/internal/models"
)

func orderConfirmationBody(order *models.Order) string {
	var items strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&items, `<tr><td style="padding: 6px 0;">%s x%d</td><td style="padding: 6px 0; text-align: right;">%.2f</td></tr>`,
			item.Name, item.Quantity, item.TotalPrice)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="margin: 0; padding: 20px; font-family: Arial, sans-serif; background-color: #f4f4f4; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; background-color: white; border: 1px solid #ddd;">
    <div style="background: #333; padding: 20px; text-align: center;">
      <h1 style="color: white; margin: 0; font-size: 24px;">Chopie Restaurant</h1>
    </div>
    <div style="padding: 20px;">
      <h2 style="color: #333;">Order Confirmation</h2>
      <p>Dear %s, thank you for your order!</p>
      <div style="border: 1px solid #ddd; padding: 15px; margin: 20px 0; background: #f9f9f9;">
        <p><strong>Order Number:</strong> %s</p>
        <p><strong>Table:</strong> %s</p>
        <table style="width: 100%%; border-collapse: collapse;">%s</table>
        <p style="border-top: 1px solid #ddd; padding-top: 10px;"><strong>Total:</strong> %.2f</p>
      </div>
      <p>Your order has been received and is awaiting the kitchen. You can follow its progress with your order number.</p>
      <div style="text-align: center; margin-top: 30px; color: #666; font-size: 12px;">
        <p>This is an automated email. Please do not reply.</p>
      </div>
    </div>
  </div>
</body>
</html>`, order.CustomerName, order.OrderNumber, order.TableNumber, items.String(), order.TotalAmount)
}

var statusTexts = map[string]string{
	models.OrderStatusAccepted:  "Your order has been accepted by our staff.",
	models.OrderStatusPreparing: "The kitchen is preparing your order.",
	models.OrderStatusCompleted: "Your order is ready and on its way to your table.",
	models.OrderStatusCancelled: "Your order has been cancelled.",
}

func statusUpdateBody(order *models.Order, status string) string {
	text, ok := statusTexts[status]
	if !ok {
		text = "Your order status has changed."
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="margin: 0; padding: 20px; font-family: Arial, sans-serif; background-color: #f4f4f4; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; background-color: white; border: 1px solid #ddd;">
    <div style="background: #333; padding: 20px; text-align: center;">
      <h1 style="color: white; margin: 0; font-size: 24px;">Chopie Restaurant</h1>
    </div>
    <div style="padding: 20px;">
      <h2 style="color: #333;">Order Update</h2>
      <p>Dear %s,</p>
      <div style="border-left: 3px solid #333; padding: 15px; margin: 20px 0; background: #f9f9f9;">
        <p><strong>Order %s:</strong> %s</p>
        <p>%s</p>
      </div>
      <div style="text-align: center; margin-top: 30px; color: #666; font-size: 12px;">
        <p>This is an automated email. Please do not reply.</p>
      </div>
    </div>
  </div>
</body>
</html>`, order.CustomerName, order.OrderNumber, status, text)
}

func staffCredentialsBody(user *models.StaffUser, password string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="margin: 0; padding: 20px; font-family: Arial, sans-serif; background-color: #f4f4f4; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; background-color: white; border: 1px solid #ddd;">
    <div style="background: #333; padding: 20px; text-align: center;">
      <h1 style="color: white; margin: 0; font-size: 24px;">Chopie Restaurant</h1>
      <p style="color: #ccc; margin: 5px 0 0; font-size: 14px;">Staff Account Created</p>
    </div>
    <div style="padding: 20px;">
      <div style="border-left: 3px solid #333; padding: 15px; margin-bottom: 20px; background: #f9f9f9;">
        <h2 style="margin: 0 0 5px; font-size: 18px;">Welcome to the Team!</h2>
        <p style="margin: 0; font-size: 14px;">Dear %s, your restaurant staff account has been created.</p>
      </div>
      <div style="border: 1px solid #ddd; padding: 15px; margin-bottom: 20px;">
        <p><strong>Email:</strong> %s</p>
        <p><strong>Password:</strong> %s</p>
        <p><strong>Role:</strong> %s</p>
      </div>
      <p style="font-size: 14px;">Please change your password after your first login.</p>
    </div>
  </div>
</body>
</html>`, user.Name, user.Email, password, user.Role)
}
