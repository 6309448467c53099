package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"gitlab.com/dirk.krummacker/contacts-api/internal/model"
	"gitlab.com/dirk.krummacker/contacts-api/internal/randomgen"
)

var baseURL string

// Usage example on the command line:
// > go run main.go -url=http://localhost:8080 -sizes=1000,5000
func main() {
	flag.StringVar(&baseURL, "url", "http://localhost:8080", "the base URL of the service")
	var sizes sizesFlag = []int{1000, 5000, 10000, 50000, 100000}
	flag.Var(&sizes, "sizes", "comma separated numbers of contacts per round")
	flag.Parse()

	fmt.Println()
	fmt.Println("  Elements      POST       PUT       GET    DELETE      LIST  BIRTHDAY ")
	fmt.Println("-----------------------------------------------------------------------")
	for _, loops := range sizes {
		fmt.Printf("%10d", loops)
		ids := make([]int64, 0, loops)
		{
			// POST requests
			var duration int64
			for i := 0; i < loops; i++ {
				id, d, err := sendPostRequest(randomContact)
				if err != nil {
					fmt.Println("could not create contact", err)
					panic(err)
				}
				ids = append(ids, id)
				duration += d
			}
			fmt.Printf("%10d", duration/int64(loops*1000))
		}
		{
			// PUT requests
			f := func(id int64) int64 {
				body, _ := json.Marshal(map[string]string{"phone": randomgen.Phone()})
				return sendIDRequest(id, http.MethodPut, bytes.NewReader(body))
			}
			callInLoop(ids, f)
		}
		{
			// GET requests
			f := func(id int64) int64 {
				return sendIDRequest(id, http.MethodGet, nil)
			}
			callInLoop(ids, f)
		}
		{
			// DELETE requests
			f := func(id int64) int64 {
				return sendIDRequest(id, http.MethodDelete, nil)
			}
			callInLoop(ids, f)
		}
		{
			// filtered list and upcoming birthdays
			rounds := 100
			var list, birthdays int64
			for i := 0; i < rounds; i++ {
				_, _, d := sendRequest(http.MethodGet, baseURL+"/contacts?first_name="+randomgen.PickFirstName()[:2], nil)
				list += d
				_, _, d = sendRequest(http.MethodGet, baseURL+"/contacts/birthdays", nil)
				birthdays += d
			}
			fmt.Printf("%10d%10d", list/int64(rounds*1000), birthdays/int64(rounds*1000))
		}
		fmt.Println()
	}
}

// randomContact returns the JSON of a contact with random values.
func randomContact() []byte {
	first, last := randomgen.PickFirstName(), randomgen.PickLastName()
	birthDate := model.DateOf(randomgen.BirthDate())
	body, err := json.Marshal(map[string]interface{}{
		"first_name": first,
		"last_name":  last,
		"email":      randomgen.Email(first, last),
		"phone":      randomgen.Phone(),
		"birth_date": birthDate,
	})
	if err != nil {
		panic(err)
	}
	return body
}

func callInLoop(ids []int64, f func(id int64) int64) {
	shuffled := append([]int64(nil), ids...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	var duration int64
	for _, id := range shuffled {
		duration += f(id)
	}
	fmt.Printf("%10d", duration/int64(len(ids)*1000))
}

// maxPostAttempts bounds the number of contacts tried by sendPostRequest.
const maxPostAttempts = 5

// sendPostRequest posts contacts built by newContact until one is created and returns its id.
// The random email or phone of a contact may already be taken. The service answers that with
// 409 and another contact is tried.
func sendPostRequest(newContact func() []byte) (int64, int64, error) {
	var duration int64
	for attempt := 1; ; attempt++ {
		status, resBody, d := sendRequest(http.MethodPost, baseURL+"/contacts", bytes.NewReader(newContact()))
		duration += d
		switch {
		case status == http.StatusCreated:
			var contact model.Contact
			if err := json.Unmarshal(resBody, &contact); err != nil {
				return 0, duration, fmt.Errorf("could not unmarshal JSON: %w", err)
			}
			return contact.Id, duration, nil
		case status == http.StatusConflict && attempt < maxPostAttempts:
			continue
		default:
			return 0, duration, fmt.Errorf("POST /contacts answered %d: %s", status, resBody)
		}
	}
}

func sendIDRequest(id int64, method string, bodyReader io.Reader) int64 {
	requestURL := fmt.Sprintf("%s/contacts/%d", baseURL, id)
	_, _, duration := sendRequest(method, requestURL, bodyReader)
	return duration
}

// sendRequest returns the status code and body of the response together with the duration of
// the request in nanoseconds.
func sendRequest(method string, requestURL string, bodyReader io.Reader) (int, []byte, int64) {
	req, err := http.NewRequest(method, requestURL, bodyReader)
	if err != nil {
		fmt.Println("could not create request", err)
		panic(err)
	}
	req.Header.Set("Content-Type", "application/json")
	before := time.Now().UnixNano()
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("error making http request", err)
		panic(err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		fmt.Println("could not read response body", err)
		panic(err)
	}
	after := time.Now().UnixNano()
	return res.StatusCode, resBody, after - before
}
