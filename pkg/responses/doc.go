// Package responses is a typed client for the Responses API
// (POST /v1/responses and friends).
//
// The package has three layers:
//
//   - The wire model: Request, Response, Item, ContentPart, Tool and the
//     streaming Event type, each with an exact JSON wire shape. Variant
//     families the protocol may extend (items, content parts, tools,
//     events) decode unknown tags into a raw-preserving fallback instead
//     of failing; closed enums (response status, role) fail decoding on
//     unknown values.
//   - The transcoder: EncodeRequest and DecodeResponse convert between
//     the wire model and raw HTTP payloads.
//   - The stream decoder: Stream turns a server-sent-event byte stream
//     into an ordered sequence of Event values via Recv, and Accumulator
//     folds that sequence back into a Response.
//
// Client ties the layers to an HTTP transport:
//
//	client, err := responses.New(responses.WithAPIKey(key))
//	resp, err := client.Create(ctx, &responses.Request{
//		Model: responses.ModelGPT4o,
//		Input: responses.TextInput("ping"),
//	})
//	fmt.Println(resp.OutputText())
package responses
