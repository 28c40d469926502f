// Package itemsclient is a client for the itemstore HTTP API.
//
//	client, err := itemsclient.NewDefaultClient("http://127.0.0.1:5000")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	item, err := client.CreateItem(itemsclient.ItemParams{
//		Name:  "apple",
//		Value: decimal.RequireFromString("1.20"),
//	})
//
// Errors returned by the server are decoded into *itemsclient.Error.
package itemsclient
