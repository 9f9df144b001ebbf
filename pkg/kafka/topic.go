package kafka

// TopicPrefix namespaces every topic published by the platform.
const TopicPrefix = "ecommerce"

// Topic builds a topic name such as "ecommerce.wishlist.created".
func Topic(domain, action string) string {
	return TopicPrefix + "." + domain + "." + action
}
